package mapping

import "github.com/joseph-ayodele/scope-mapper/internal/entity"

// Group holds the measurements sharing one room identifier.
type Group struct {
	RoomIdentifier string
	Measurements   []entity.MeasurementData
}

// GroupByRoom buckets measurements by room identifier. Groups appear in order of first
// encounter and keep their measurements in input order.
func GroupByRoom(measurements []entity.MeasurementData) []Group {
	var groups []Group
	index := map[string]int{}
	for _, m := range measurements {
		i, ok := index[m.RoomIdentifier]
		if !ok {
			i = len(groups)
			index[m.RoomIdentifier] = i
			groups = append(groups, Group{RoomIdentifier: m.RoomIdentifier})
		}
		groups[i].Measurements = append(groups[i].Measurements, m)
	}
	return groups
}
