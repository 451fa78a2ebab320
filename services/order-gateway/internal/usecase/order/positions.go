package order

import (
	"sort"

	v1 "github.com/muhammadchandra19/exchange/services/order-gateway/internal/domain/order/v1"
	orderInfra "github.com/muhammadchandra19/exchange/services/order-gateway/internal/infrastructure/postgresql/order"
)

// aggregatePositions folds fills per symbol. avgPrice is recomputed after each
// fill while the net quantity is non-zero and keeps its previous value
// otherwise.
func aggregatePositions(events []*orderInfra.FilledEvent) []*v1.Position {
	bySymbol := make(map[string]*v1.Position)

	for _, event := range events {
		position, ok := bySymbol[event.Symbol]
		if !ok {
			position = &v1.Position{Symbol: event.Symbol}
			bySymbol[event.Symbol] = position
		}

		sign := event.Side.Sign()
		position.Quantity = position.Quantity.Add(event.Quantity.Mul(sign))
		position.TotalCost = position.TotalCost.Add(event.Price.Mul(event.Quantity).Mul(sign))

		if !position.Quantity.IsZero() {
			position.AvgPrice = position.TotalCost.Div(position.Quantity)
		}
	}

	positions := make([]*v1.Position, 0, len(bySymbol))
	for _, position := range bySymbol {
		positions = append(positions, position)
	}
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Symbol < positions[j].Symbol
	})

	return positions
}

