package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/penguintracker/internal/client/client"
	"github.com/dmitrijs2005/penguintracker/internal/client/models"
	"github.com/dmitrijs2005/penguintracker/internal/common"
)

// describe turns an error from the services into the line shown to the
// user.
func describe(err error) string {
	var (
		verr   *models.ValidationError
		apiErr *client.APIError
	)
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, common.ErrNotAuthenticated):
		return "not logged in"
	case errors.Is(err, common.ErrOperationInProgress):
		return "another login or logout is still running"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable, try again later"
	case errors.As(err, &apiErr):
		return apiErr.Error()
	}
	return err.Error()
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func formatFloat(f *float64) string {
	if f == nil {
		return "-"
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatSex(s *models.Sex) string {
	if s == nil {
		return "-"
	}
	return string(*s)
}

func formatName(n *string) string {
	if n == nil || *n == "" {
		return "-"
	}
	return *n
}
