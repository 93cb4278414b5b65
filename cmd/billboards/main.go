// Command billboards serves the billboard rental pricing and billing API.
package main

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/billboards/internal/clock"
	"github.com/smallbiznis/billboards/internal/config"
	"github.com/smallbiznis/billboards/internal/migration"
	"github.com/smallbiznis/billboards/internal/observability"
	"github.com/smallbiznis/billboards/internal/scheduler"
	"github.com/smallbiznis/billboards/internal/server"
	"github.com/smallbiznis/billboards/pkg/db"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		config.Module,
		observability.Module,
		clock.Module,
		fx.Provide(newIDNode),
		db.Module,
		migration.Module,

		server.Module,
		scheduler.Module,
	).Run()
}

// newIDNode builds the snowflake node for entity ids. Every instance
// sharing a database needs its own SNOWFLAKE_NODE.
func newIDNode(cfg config.Config) (*snowflake.Node, error) {
	node, err := snowflake.NewNode(cfg.SnowflakeNode)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", cfg.SnowflakeNode, err)
	}
	return node, nil
}
