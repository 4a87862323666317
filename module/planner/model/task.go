package model

import "time"

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type SubTask struct {
	ID        string `bson:"id" json:"id"`
	Title     string `bson:"title" json:"title"`
	Completed bool   `bson:"completed" json:"completed"`
}

type Task struct {
	ID          string     `bson:"id" json:"id"`
	ServerID    string     `bson:"server_id" json:"server_id"`
	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description" json:"description"`
	AssignedTo  []string   `bson:"assigned_to" json:"assigned_to"`
	Deadline    *time.Time `bson:"deadline,omitempty" json:"deadline"`
	Completed   bool       `bson:"completed" json:"completed"`
	Priority    string     `bson:"priority" json:"priority"` // low/medium/high
	SubTasks    []SubTask  `bson:"sub_tasks" json:"sub_tasks"`
	Progress    int        `bson:"progress" json:"progress"` // 0-100
	CreatedBy   string     `bson:"created_by" json:"created_by"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}
