package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/invoicekeeper/internal/client/filter"
	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/shopspring/decimal"
)

var filterKeyRe = regexp.MustCompile(`(?i)(?:^|\s)(status|state|from|to|min|max)=`)

// parseFilterArgs turns "status=Pagada,Anulada from=2024-01-01 max=100"
// into a filter.Spec. A value runs until the next key, so statuses may
// contain spaces. Status values may also be English labels ("paid").
func parseFilterArgs(s string) (filter.Spec, error) {
	var spec filter.Spec

	s = strings.TrimSpace(s)
	locs := filterKeyRe.FindAllStringSubmatchIndex(s, -1)
	if len(locs) == 0 {
		return spec, common.NewValidationError("filter", fmt.Sprintf("unexpected %q", s))
	}
	if lead := strings.TrimSpace(s[:locs[0][0]]); lead != "" {
		return spec, common.NewValidationError("filter", fmt.Sprintf("unexpected %q", lead))
	}

	for i, loc := range locs {
		key := strings.ToLower(s[loc[2]:loc[3]])
		end := len(s)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		value := strings.TrimSpace(s[loc[1]:end])
		if value == "" {
			return spec, common.NewValidationError(key, "missing value")
		}

		switch key {
		case "status", "state":
			spec = spec.WithStates(parseStates(value)...)
		case "from", "to":
			d, err := models.ParseDate(value)
			if err != nil {
				return spec, common.NewValidationError(key, err.Error())
			}
			if key == "from" {
				spec.StartDate = &d
			} else {
				spec.EndDate = &d
			}
		case "min", "max":
			v, err := decimal.NewFromString(value)
			if err != nil {
				return spec, common.NewValidationError(key, fmt.Sprintf("not a number: %q", value))
			}
			if key == "min" {
				spec.MinAmount = &v
			} else {
				spec.MaxAmount = &v
			}
		}
	}
	return spec, nil
}

func parseStates(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, stateText(p))
	}
	return out
}

// stateText maps an English label to the server text; anything else is
// taken verbatim.
func stateText(v string) string {
	for _, st := range models.KnownStates {
		if strings.EqualFold(v, st.Label()) {
			return st.ServerText()
		}
	}
	return v
}
