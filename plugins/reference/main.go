package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"octowatch/internal/modules/notify/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

// Reference channel: appends every delivered message to a local file. Point
// OCTOWATCH_FILE_CHANNEL_PATH somewhere writable, default notifications.log
// in the working directory.

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *rpc.Empty) (*rpc.Metadata, error) {
	return &rpc.Metadata{Name: "reference", Version: "1.0.0"}, nil
}

func (s *server) Deliver(_ context.Context, in *rpc.DeliverRequest) (*rpc.DeliverResponse, error) {
	path := os.Getenv("OCTOWATCH_FILE_CHANNEL_PATH")
	if path == "" {
		path = filepath.Join(".", "notifications.log")
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &rpc.DeliverResponse{Accepted: false, Detail: err.Error()}, nil
	}
	defer f.Close()

	line := fmt.Sprintf("%s [%s] %s\n", time.Now().Format(time.RFC3339), in.Tag, in.Message)
	if _, err := f.WriteString(line); err != nil {
		return &rpc.DeliverResponse{Accepted: false, Detail: err.Error()}, nil
	}
	return &rpc.DeliverResponse{Accepted: true}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: rpc.HandshakeConfig,
		Plugins:         rpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
