package analysis

import (
	"fmt"

	"github.com/vanderheijden86/sectorlens/pkg/model"
)

// MaxDrivers is the number of driver tags shown before collapsing the rest.
const MaxDrivers = 20

// Drivers returns the first MaxDrivers driver tags followed by a "+N more"
// tag when the list was cut.
func Drivers(ds *model.Dataset) []string {
	if ds == nil || len(ds.Drivers) == 0 {
		return nil
	}
	n := min(len(ds.Drivers), MaxDrivers)
	out := append([]string(nil), ds.Drivers[:n]...)
	if more := len(ds.Drivers) - n; more > 0 {
		out = append(out, fmt.Sprintf("+%d more", more))
	}
	return out
}

// MetricCards returns the dataset's metric cards verbatim.
func MetricCards(ds *model.Dataset) []model.MetricCard {
	if ds == nil {
		return nil
	}
	return ds.Metrics
}
