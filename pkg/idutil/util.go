package idutil

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Generator struct {
	node *snowflake.Node
}

func NewGenerator(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}

	return &Generator{node: node}, nil
}

func (g *Generator) Generate() snowflake.ID {
	return g.node.Generate()
}

// TimeOf returns the generation time embedded in a snowflake id.
func TimeOf(id snowflake.ID) time.Time {
	return time.UnixMilli(id.Time())
}
