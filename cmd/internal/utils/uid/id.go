package uid

import (
	"fmt"
	"github.com/bwmarrin/snowflake"
	"github.com/labstack/gommon/log"
	"sync"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init sets up the snowflake node used by Generate. Only the first call
// has any effect.
func Init(machineID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(machineID)
		if err != nil {
			err = fmt.Errorf("failed to initialize snowflake node %d: %w", machineID, err)
		}
	})
	return err
}

// Generate returns a new unique, roughly time-ordered ID.
func Generate() int64 {
	if node == nil {
		log.Fatalf("uid package not initialized")
	}
	return node.Generate().Int64()
}
