package history

import "github.com/cedricly/demandcast/core/model"

// Assessment is the operational reading of a predicted search volume:
// the demand bucket plus staffing advice for platforms and restaurants.
type Assessment struct {
	Level      model.DemandLevel `json:"level"`
	Priority   string            `json:"priority"`
	Platform   string            `json:"platform"`
	Restaurant string            `json:"restaurant"`
}

// Categorize buckets a predicted volume against the historical
// percentiles: CRITICAL >= p90, HIGH >= p75, LOW <= p25, NORMAL
// otherwise.
func Categorize(searches float64, st Stats) Assessment {
	switch {
	case searches >= st.P90:
		return Assessment{
			Level:      model.DemandCritical,
			Priority:   "Critical",
			Platform:   "Plan significantly more active riders (+20-30% vs a typical day) and monitor delivery times closely.",
			Restaurant: "Prepare for a very busy service: extra kitchen staff at peaks and pre-prepared best sellers.",
		}
	case searches >= st.P75:
		return Assessment{
			Level:      model.DemandHigh,
			Priority:   "High",
			Platform:   "Schedule additional riders (+10-15%) and consider moderate incentives during peak periods.",
			Restaurant: "Busy but manageable: slightly increase staffing and stock of core dishes.",
		}
	case searches <= st.P25:
		return Assessment{
			Level:      model.DemandLow,
			Priority:   "Low",
			Platform:   "Demand below normal: keep incentives low and focus on targeted marketing.",
			Restaurant: "Quieter day: avoid over-staffing and keep fresh-product orders conservative.",
		}
	default:
		return Assessment{
			Level:      model.DemandNormal,
			Priority:   "Normal",
			Platform:   "Close to a typical day: keep the usual rider count and standard incentives.",
			Restaurant: "Normal service: maintain standard staffing and stock levels.",
		}
	}
}
