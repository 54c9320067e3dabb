// Package notify wraps the user-facing alert channels behind a single
// Dispatcher interface: permission state plus a send primitive.
package notify

import (
	"context"
	"log"
	"sync/atomic"
)

// PermissionState mirrors the platform notification permission model.
type PermissionState string

const (
	PermissionGranted PermissionState = "granted"
	PermissionDenied  PermissionState = "denied"
	PermissionDefault PermissionState = "default"
)

// Payload is one notification to deliver.
type Payload struct {
	Title              string
	Message            string
	Icon               string
	Data               map[string]any
	RequireInteraction bool
	Silent             bool
}

// Dispatcher delivers notifications to the user.
type Dispatcher interface {
	IsSupported() bool
	PermissionState() PermissionState
	RequestPermission(ctx context.Context) (PermissionState, error)
	Send(ctx context.Context, p Payload) (bool, error)
}

// ConsoleDispatcher logs notifications to stdout. Always supported; used
// when no delivery channel is configured.
type ConsoleDispatcher struct {
	sent atomic.Int64
}

func NewConsoleDispatcher() *ConsoleDispatcher {
	return &ConsoleDispatcher{}
}

func (c *ConsoleDispatcher) IsSupported() bool { return true }

func (c *ConsoleDispatcher) PermissionState() PermissionState { return PermissionGranted }

func (c *ConsoleDispatcher) RequestPermission(ctx context.Context) (PermissionState, error) {
	return PermissionGranted, nil
}

func (c *ConsoleDispatcher) Send(ctx context.Context, p Payload) (bool, error) {
	log.Printf("[notification] %s — %s", p.Title, p.Message)
	c.sent.Add(1)
	return true, nil
}

// Sent returns how many notifications were delivered.
func (c *ConsoleDispatcher) Sent() int64 { return c.sent.Load() }
