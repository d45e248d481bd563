package holiday

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/dateutil"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

type CreateHolidayRequest struct {
	Name                  string   `json:"name"`
	Date                  string   `json:"date"` // YYYY-MM-DD
	IsCompanyWide         bool     `json:"is_company_wide"`
	ApplicableDepartments []string `json:"applicable_departments"`
	Description           *string  `json:"description,omitempty"`
}

func (r *CreateHolidayRequest) Validate() error {
	return validateHoliday(r.Name, r.Date, r.IsCompanyWide, r.ApplicableDepartments)
}

type UpdateHolidayRequest struct {
	ID                    string   `json:"-"`
	Name                  string   `json:"name"`
	Date                  string   `json:"date"`
	IsCompanyWide         bool     `json:"is_company_wide"`
	ApplicableDepartments []string `json:"applicable_departments"`
	Description           *string  `json:"description,omitempty"`
}

func (r *UpdateHolidayRequest) Validate() error {
	return validateHoliday(r.Name, r.Date, r.IsCompanyWide, r.ApplicableDepartments)
}

func validateHoliday(name, date string, companyWide bool, departments []string) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if len(name) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}

	if _, valid := validator.IsValidDate(date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if !companyWide {
		if len(departments) == 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "applicable_departments",
				Message: ErrDepartmentsEmpty.Message,
			})
		}
		for _, id := range departments {
			if !validator.IsValidUUID(id) {
				errs = append(errs, validator.ValidationError{
					Field:   "applicable_departments",
					Message: "applicable_departments must contain valid department ids",
				})
				break
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type HolidayFilter struct {
	StartDate    *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	DepartmentID *string `json:"department_id,omitempty"`
}

func (f *HolidayFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type HolidayResponse struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	Date                  string   `json:"date"`
	IsCompanyWide         bool     `json:"is_company_wide"`
	ApplicableDepartments []string `json:"applicable_departments"`
	Description           *string  `json:"description,omitempty"`
}

func ToResponse(h Holiday) HolidayResponse {
	departments := h.ApplicableDepartments
	if departments == nil {
		departments = []string{}
	}
	return HolidayResponse{
		ID:                    h.ID,
		Name:                  h.Name,
		Date:                  dateutil.Format(h.Date),
		IsCompanyWide:         h.IsCompanyWide,
		ApplicableDepartments: departments,
		Description:           h.Description,
	}
}
