package viewmodels

import (
	"net/http"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/driveportfolio/pkg/models"
)

type BaseViewModel struct {
	Message            string
	IsError            bool
	IsWarning          bool
	IsHtmx             bool
	IsStaff            bool
	ShowErrorDetail    bool
	ErrorDetail        string
	JavascriptIncludes []rendering.JavascriptInclude
}

/*
SetResolveError records a failure to load images. Everyone gets a generic
message; staff also see the underlying error.
*/
func (vm *BaseViewModel) SetResolveError(message string, err error) {
	vm.IsError = true
	vm.Message = message

	if (vm.IsStaff || vm.ShowErrorDetail) && err != nil {
		vm.ErrorDetail = err.Error()
	}
}

func GetStaffFromContext(r *http.Request) *models.StaffUser {
	if result, ok := r.Context().Value("staff").(*models.StaffUser); ok {
		return result
	}

	return nil
}

func NewBaseViewModel(r *http.Request, javascriptIncludes ...rendering.JavascriptInclude) BaseViewModel {
	if javascriptIncludes == nil {
		javascriptIncludes = []rendering.JavascriptInclude{}
	}

	return BaseViewModel{
		IsHtmx:             httphelpers.IsHtmx(r),
		IsStaff:            GetStaffFromContext(r) != nil,
		JavascriptIncludes: javascriptIncludes,
	}
}
