package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gupta1123/fieldsales-teams/internal/api/dto"
	"github.com/gupta1123/fieldsales-teams/internal/auth"
	"github.com/gupta1123/fieldsales-teams/internal/domain"
	"github.com/gupta1123/fieldsales-teams/internal/listing"
	"github.com/gupta1123/fieldsales-teams/internal/service"
	apperrors "github.com/gupta1123/fieldsales-teams/pkg/util/errorutil"
)

const dateLayout = "2006-01-02"

func callerFrom(c *fiber.Ctx) (service.Caller, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return service.Caller{}, apperrors.NewUnauthorized("authentication required")
	}
	return service.Caller{
		EmployeeID:   principal.EmployeeID,
		Capabilities: principal.Capabilities,
		Token:        principal.Token,
	}, nil
}

func int64Param(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid "+name, map[string]any{name: c.Params(name)})
	}
	return id, nil
}

// parseFilterQuery reads search, page, size, from, to and the given enum keys.
func parseFilterQuery(c *fiber.Ctx, enumKeys ...string) (domain.FilterState, error) {
	f := domain.NewFilterState()
	f.Search = c.Query("search")
	f.Page = c.QueryInt("page", 1)
	f.PageSize = c.QueryInt("size", c.QueryInt("pageSize", domain.DefaultPageSize))
	for _, key := range enumKeys {
		if v := strings.TrimSpace(c.Query(key)); v != "" {
			f = f.WithEnum(key, v)
		}
	}
	var err error
	if f.From, err = dateQuery(c, "from"); err != nil {
		return f, err
	}
	if f.To, err = dateQuery(c, "to"); err != nil {
		return f, err
	}
	return f.Normalized(), nil
}

func dateQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid "+key+" date, expected YYYY-MM-DD", map[string]any{key: raw})
	}
	return &t, nil
}

func pageMeta[T any](p listing.Page[T]) dto.PageMeta {
	return dto.PageMeta{Page: p.Page, PageSize: p.PageSize, Total: p.Total, TotalPages: p.TotalPages}
}
