package idgen

import (
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

var Module = fx.Provide(NewNode)

// NewNode builds the snowflake generator. Every instance of a service must
// run with a distinct SNOWFLAKE_NODE_ID so ids never collide across replicas.
func NewNode() (*snowflake.Node, error) {
	nodeID := int64(1)
	if v := os.Getenv("SNOWFLAKE_NODE_ID"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			nodeID = parsed
		}
	}
	return snowflake.NewNode(nodeID)
}
