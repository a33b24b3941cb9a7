package main

import (
	"context"

	pluginrpc "certflow/internal/modules/plugin/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *pluginrpc.Empty) (*pluginrpc.Metadata, error) {
	return &pluginrpc.Metadata{
		Name:          "reference",
		Version:       "1.0.0",
		Step:          "validation",
		Description:   "Create verification records through the reference DNS plugin",
		Order:         10,
		ChallengeType: "dns-01",
		Capabilities:  []string{"wildcard"},
	}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: pluginrpc.HandshakeConfig,
		Plugins:         pluginrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
