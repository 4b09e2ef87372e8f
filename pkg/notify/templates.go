package notify

import "fmt"

func AppointmentBooked(to, patientName, doctorName, date, slot string) Message {
	return Message{
		To:      to,
		Subject: "Appointment request received",
		Body: fmt.Sprintf("Hello %s,\n\nYour appointment with %s on %s at %s has been received and is pending confirmation.\n",
			patientName, doctorName, date, slot),
	}
}

func AppointmentStatusChanged(to, patientName, status, date, slot, note string) Message {
	body := fmt.Sprintf("Hello %s,\n\nYour appointment on %s at %s is now %s.\n", patientName, date, slot, status)
	if note != "" {
		body += fmt.Sprintf("\nReason: %s\n", note)
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Appointment %s", status),
		Body:    body,
	}
}
