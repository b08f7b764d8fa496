package dto

import "github.com/BruksfildServices01/clinic-recall/internal/models"

type AppointmentListDTO struct {
	ID          uint    `json:"id"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Status      string  `json:"status"`
	Procedure   string  `json:"procedure"`
	PatientID   *string `json:"patient_id"`
	PatientName string  `json:"patient_name"`
	DentistID   *uint   `json:"dentist_id"`
}

func FromAppointment(ap models.Appointment) AppointmentListDTO {
	out := AppointmentListDTO{
		ID:        ap.ID,
		Date:      ap.Day().Format("2006-01-02"),
		Time:      ap.Time,
		Status:    ap.Status,
		Procedure: ap.Procedure,
		PatientID: ap.PatientID,
		DentistID: ap.DentistID,
	}
	if ap.Patient != nil {
		out.PatientName = ap.Patient.Name
	}
	return out
}
