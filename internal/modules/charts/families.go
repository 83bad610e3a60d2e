package charts

import (
	"fmt"
	"strings"

	"github.com/aristath/schedboard/internal/domain"
)

// Family identifies one metric family served by the scheduling back-end
type Family string

const (
	FamilyCost       Family = "cost"
	FamilyAssignment Family = "assignment"
	FamilyHours      Family = "hours"
	FamilyMoney      Family = "money"
	FamilyOrder      Family = "order"
)

// DefaultAssignmentTitle is the title of the generic unassigned-work chart
const DefaultAssignmentTitle = "Percentage of Unassigned Work"

// Palettes
var (
	paletteSolid = []string{
		"rgb(119, 185, 242)",
		"rgb(195, 152, 245)",
		"rgb(78, 212, 205)",
	}
	paletteMedium = []string{
		"rgb(119, 185, 242, 0.6)",
		"rgb(195, 152, 245, 0.6)",
		"rgb(78, 212, 205, 0.6)",
	}
	paletteLight = []string{
		"rgb(119, 185, 242, 0.3)",
		"rgb(195, 152, 245, 0.3)",
		"rgb(78, 212, 205, 0.3)",
	}
	// the regular-time series leads with a green rather than the blue
	paletteRegularTime = []string{
		"rgb(119, 185, 24, 0.3)",
		"rgb(195, 152, 245, 0.3)",
		"rgb(78, 212, 205, 0.3)",
	}
)

// Families returns every family in dashboard order
func Families() []Family {
	return []Family{FamilyCost, FamilyHours, FamilyMoney, FamilyOrder, FamilyAssignment}
}

// ParseFamily parses a family name case-insensitively
func ParseFamily(s string) (Family, error) {
	for _, f := range Families() {
		if strings.EqualFold(string(f), strings.TrimSpace(s)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown metric family: %q", s)
}

// Endpoint returns the back-end method that serves the family's records
func (f Family) Endpoint() string {
	switch f {
	case FamilyCost:
		return "getCostData"
	case FamilyAssignment:
		return "getScheduleData"
	case FamilyHours:
		return "getHoursData"
	case FamilyMoney:
		return "getMoneyData"
	case FamilyOrder:
		return "getOrderData"
	default:
		return ""
	}
}

// PlanFor returns the extraction plan for a family
func PlanFor(f Family) (Plan, error) {
	axis := AxisOptions{BeginAtZero: true}

	switch f {
	case FamilyCost:
		return Plan{
			Family: f,
			Title:  "Schedule Cost",
			Kind:   KindLine,
			Fields: []FieldPlan{
				{Label: "Schedule Cost", Field: domain.FieldScheduleCost, Colors: paletteLight},
			},
			Axis: axis,
		}, nil
	case FamilyAssignment:
		return Plan{
			Family: f,
			Title:  DefaultAssignmentTitle,
			Kind:   KindBar,
			Fields: []FieldPlan{
				{Label: "% Un-assigned Work", Field: domain.FieldUnassignedPercentage, Colors: paletteSolid},
			},
			Axis: axis,
		}, nil
	case FamilyHours:
		return Plan{
			Family: f,
			Title:  "Regular and Overtime Hours",
			Kind:   KindPolarArea,
			Fields: []FieldPlan{
				{Label: "Regular time", Field: domain.FieldRegularTime, Colors: paletteRegularTime},
				{Label: "Overtime", Field: domain.FieldOvertime, Colors: paletteSolid},
			},
			Axis: axis,
		}, nil
	case FamilyMoney:
		return Plan{
			Family: f,
			Title:  "Labor Cost and Fines",
			Kind:   KindBar,
			Fields: []FieldPlan{
				{Label: "Labor Cost", Field: domain.FieldLaborMoney, Colors: paletteSolid},
				{Label: "Late Fine", Field: domain.FieldLateFine, Colors: paletteMedium},
				{Label: "Unfinished Fine", Field: domain.FieldUnfinishedFine, Colors: paletteLight},
			},
			Axis: axis,
		}, nil
	case FamilyOrder:
		return Plan{
			Family: f,
			Title:  "Order Cost",
			Kind:   KindDoughnut,
			Fields: []FieldPlan{
				{Label: "Order Cost", Field: domain.FieldOrderCost, Colors: paletteSolid},
			},
			Axis: axis,
		}, nil
	default:
		return Plan{}, fmt.Errorf("no chart plan for family %q", f)
	}
}

// MustPlanFor is PlanFor for the fixed families; it panics on an unknown family
func MustPlanFor(f Family) Plan {
	p, err := PlanFor(f)
	if err != nil {
		panic(err)
	}
	return p
}
