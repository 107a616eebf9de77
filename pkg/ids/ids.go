// Package ids генерирует уникальные 64-битные идентификаторы сущностей.
// Идентификаторы монотонно растут во времени и безопасно сериализуются
// в строку на HTTP-границе (значения выходят за пределы safe integer в JS).
package ids

import (
	"github.com/bwmarrin/snowflake"
	"github.com/jimlawless/whereami"

	"github.com/DRSN-tech/shop-backend/pkg/e"
)

// Generator выдаёт snowflake-идентификаторы от имени одного узла.
type Generator struct {
	node *snowflake.Node
}

// NewGenerator создаёт генератор для узла nodeID (0..1023).
func NewGenerator(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Generator{node: node}, nil
}

// NextID возвращает следующий идентификатор.
func (g *Generator) NextID() int64 {
	return g.node.Generate().Int64()
}
