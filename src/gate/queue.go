package gate

import (
	"sync"

	"github.com/Ngo-Miingg/Parking-Smart/src/models"
)

// CommandQueue is the FIFO mailbox between admin manual control and the gate
// actuator. Admin actions enqueue; the actuator polls and dequeues. Delivery
// is at-most-once and destructive: once handed to a poll, a command is gone,
// with no acknowledgement or redelivery. Acceptable on the trusted LAN this
// runs on.
type CommandQueue struct {
	mu       sync.Mutex
	commands []models.GateCommand
}

// NewCommandQueue creates an empty command queue.
func NewCommandQueue() *CommandQueue {
	return &CommandQueue{}
}

// Enqueue appends a command for the actuator to pick up. Commands persist
// until polled, with no expiry.
func (q *CommandQueue) Enqueue(cmd models.GateCommand) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.commands = append(q.commands, cmd)
}

// Dequeue removes and returns the oldest command. The second return is false
// when the queue is empty.
func (q *CommandQueue) Dequeue() (models.GateCommand, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.commands) == 0 {
		return models.CommandNone, false
	}
	cmd := q.commands[0]
	q.commands = q.commands[1:]
	return cmd, true
}

// Len reports the number of pending commands.
func (q *CommandQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.commands)
}
