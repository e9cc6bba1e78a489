package order

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

const idPrefix = "order_"

type IDGenerator struct {
	node *snowflake.Node
}

func NewIDGenerator(nodeID int64) (*IDGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("create snowflake node %d: %w", nodeID, err)
	}
	return &IDGenerator{node: node}, nil
}

// Next returns a new order id such as order_1541815603606036480.
func (g *IDGenerator) Next() string {
	return idPrefix + g.node.Generate().String()
}
