package viewmodels

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adampresley/driveportfolio/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestSetResolveErrorHidesDetailFromVisitors(t *testing.T) {
	vm := NewBaseViewModel(httptest.NewRequest(http.MethodGet, "/", nil))

	vm.SetResolveError("There was a problem getting photos for this page.", errors.New("drive quota exceeded"))

	assert.True(t, vm.IsError)
	assert.False(t, vm.IsStaff)
	assert.Equal(t, "There was a problem getting photos for this page.", vm.Message)
	assert.Empty(t, vm.ErrorDetail)
}

func TestSetResolveErrorShowsDetailToStaff(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(context.WithValue(r.Context(), "staff", &models.StaffUser{Username: "admin"}))

	vm := NewBaseViewModel(r)
	vm.SetResolveError("There was a problem getting photos for this page.", errors.New("drive quota exceeded"))

	assert.True(t, vm.IsStaff)
	assert.Equal(t, "drive quota exceeded", vm.ErrorDetail)
}

func TestSetResolveErrorShowsDetailOnDebugPage(t *testing.T) {
	vm := NewBaseViewModel(httptest.NewRequest(http.MethodGet, "/debug", nil))
	vm.ShowErrorDetail = true

	vm.SetResolveError("There was a problem getting photos for this page.", errors.New("folder Public_Portfolio: folder not found"))

	assert.Equal(t, "folder Public_Portfolio: folder not found", vm.ErrorDetail)

	vm.ErrorDetail = ""
	vm.SetResolveError("There was a problem getting photos for this page.", nil)

	assert.True(t, vm.IsError)
	assert.Empty(t, vm.ErrorDetail)
}
