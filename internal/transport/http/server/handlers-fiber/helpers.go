package handlers_fiber

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/transport/http/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func writeError(c *fiber.Ctx, err error) error {
	status, msg := classify(err)
	return c.Status(status).JSON(ErrorResponse{
		Message: msg,
		Error:   strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_")),
	})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, entities.ErrInvalidArgument), errors.Is(err, entities.ErrPromoInvalid):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, entities.ErrUnauthorized), errors.Is(err, entities.ErrSignatureMismatch):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, entities.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, entities.ErrConflict),
		errors.Is(err, entities.ErrCapacityReached),
		errors.Is(err, entities.ErrInvalidTransition),
		errors.Is(err, entities.ErrIntegrationDisabled):
		return http.StatusConflict, err.Error()
	case errors.Is(err, entities.ErrUpstream):
		return http.StatusBadGateway, err.Error()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}
	return http.StatusInternalServerError, "internal error"
}

// ErrorHandler formats errors returned by middlewares and the router.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return writeError(c, err)
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{entities.ErrInvalidArgument}, args...)...)
}

func actor(c *fiber.Ctx) (entities.Actor, error) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		return entities.Actor{}, entities.ErrUnauthorized
	}
	return a, nil
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, badRequest("%s must be a uuid", name)
	}
	return id, nil
}

func queryUUID(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, badRequest("%s must be a uuid", name)
	}
	return &id, nil
}

func queryTime(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, badRequest("%s must be a date (YYYY-MM-DD) or RFC 3339 time", name)
	}
	return &t, nil
}

func queryInt(c *fiber.Ctx, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, badRequest("%s must be a non-negative integer", name)
	}
	return n, nil
}

// listFilter reads branch_id, status, q, from, to, limit and offset.
func listFilter(c *fiber.Ctx) (entities.ListFilter, error) {
	var (
		f   entities.ListFilter
		err error
	)
	if f.BranchID, err = queryUUID(c, "branch_id"); err != nil {
		return f, err
	}
	if f.From, err = queryTime(c, "from"); err != nil {
		return f, err
	}
	if f.To, err = queryTime(c, "to"); err != nil {
		return f, err
	}
	if f.Limit, err = queryInt(c, "limit"); err != nil {
		return f, err
	}
	if f.Offset, err = queryInt(c, "offset"); err != nil {
		return f, err
	}
	f.Status = strings.TrimSpace(c.Query("status"))
	f.Search = strings.TrimSpace(c.Query("q"))
	return f.Normalize(), nil
}

// period reads branch_id, from and to. Missing bounds stay zero.
func period(c *fiber.Ctx) (*uuid.UUID, time.Time, time.Time, error) {
	branchID, err := queryUUID(c, "branch_id")
	if err != nil {
		return nil, time.Time{}, time.Time{}, err
	}
	var from, to time.Time
	if t, err := queryTime(c, "from"); err != nil {
		return nil, from, to, err
	} else if t != nil {
		from = *t
	}
	if t, err := queryTime(c, "to"); err != nil {
		return nil, from, to, err
	} else if t != nil {
		to = *t
	}
	return branchID, from, to, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return badRequest("invalid body")
	}
	return nil
}
