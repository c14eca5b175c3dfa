package main

import (
	"context"

	"github.com/najoast/actorhost/core"
)

// echoHandler answers every request with its own payload
type echoHandler struct{}

func (echoHandler) HandleMessage(ctx context.Context, msg *core.Message) error {
	return nil
}

func (echoHandler) Reply(ctx context.Context, msg *core.Message) ([]byte, error) {
	return msg.Data, nil
}
