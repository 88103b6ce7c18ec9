package models

type MessageType int

const (
	Program MessageType = iota
	Server
	Warning
	Error
)

type Message struct {
	Content string
	Type    MessageType
}
