package models

import "time"

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatReply struct {
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}
