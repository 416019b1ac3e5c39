package validators

import (
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-user-keeper/models"
)

// Query parameters understood by the user listing.
const (
	ParamPage   = "page"
	ParamLimit  = "limit"
	ParamSearch = "q"
	ParamFields = "fields"
)

// ParseUserQuery builds a [models.UserQuery] from listing query parameters.
//
// page defaults to 1 and must be >= 1; limit defaults to 30 and must be in
// 1..100. fields is a comma-separated list (the parameter may repeat) of
// projectable field names. Any violation is a [ParamError] on the parameter.
func ParseUserQuery(values url.Values) (models.UserQuery, error) {
	query := models.UserQuery{
		Page:   models.DefaultPage,
		Limit:  models.DefaultLimit,
		Search: strings.TrimSpace(values.Get(ParamSearch)),
	}

	if raw := values.Get(ParamPage); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return models.UserQuery{}, NewParamError(RuleInvalid, ParamPage, "page must be a positive integer")
		}
		query.Page = page
	}

	if raw := values.Get(ParamLimit); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > models.MaxLimit {
			return models.UserQuery{}, NewParamError(RuleInvalid, ParamLimit, "limit must be between 1 and %d", models.MaxLimit)
		}
		query.Limit = limit
	}

	if query.Page-1 > math.MaxInt64/query.Limit {
		return models.UserQuery{}, NewParamError(RuleInvalid, ParamPage, "page is out of range")
	}

	for _, raw := range values[ParamFields] {
		for _, field := range strings.Split(raw, ",") {
			field = strings.TrimSpace(field)
			if field == "" || slices.Contains(query.Fields, field) {
				continue
			}
			if !slices.Contains(models.UserFields, field) {
				return models.UserQuery{}, NewParamError(RuleInvalid, ParamFields, "unknown field %q", field)
			}
			query.Fields = append(query.Fields, field)
		}
	}

	return query, nil
}
