package appointment

import (
	"strconv"

	"github.com/BruksfildServices01/clinic-recall/internal/httperr"
	"github.com/BruksfildServices01/clinic-recall/internal/models"
)

// Actor is the authenticated staff member driving a use case.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// authorize: admins reach every appointment, dentists only their own.
func authorize(a Actor, ap *models.Appointment) error {
	if a.IsAdmin() {
		return nil
	}
	if ap.DentistID == nil || *ap.DentistID != a.UserID {
		return httperr.ErrBusiness("appointment_not_found")
	}
	return nil
}

func entityID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
