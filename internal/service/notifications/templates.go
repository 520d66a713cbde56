package notifications

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

const confirmationTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Hola {{.Name}},</p>
  <p>Tu reserva en {{.Shop}} está confirmada:</p>
  <ul>
    <li>Servicio: {{.Service}}</li>
    <li>Fecha: {{.Date}}</li>
    <li>Hora: {{.Hour}}</li>
    {{- if .Visit}}
    <li>Visita número: {{.Visit}}</li>
    {{- end}}
    <li>Número de reserva: {{.BookingID}}</li>
  </ul>
  {{- if .FirstVisit}}
  <p>¡Bienvenido! Es tu primera visita con nosotros.</p>
  {{- end}}
  <p>Si no puedes asistir, cancela tu reserva desde tu perfil.</p>
</body>
</html>`

const cancellationTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Hola {{.Name}},</p>
  <p>Tu reserva en {{.Shop}} ha sido cancelada:</p>
  <ul>
    <li>Servicio: {{.Service}}</li>
    <li>Fecha: {{.Date}}</li>
    <li>Hora: {{.Hour}}</li>
  </ul>
  <p>Puedes reservar otro horario cuando quieras.</p>
</body>
</html>`

const reminderTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Hola {{.Name}},</p>
  <p>Te recordamos tu cita de mañana en {{.Shop}}:</p>
  <ul>
    <li>Servicio: {{.Service}}</li>
    <li>Fecha: {{.Date}}</li>
    <li>Hora: {{.Hour}}</li>
  </ul>
  <p>¡Te esperamos!</p>
</body>
</html>`

var (
	confirmationTmpl = template.Must(template.New("confirmation").Parse(confirmationTemplate))
	cancellationTmpl = template.Must(template.New("cancellation").Parse(cancellationTemplate))
	reminderTmpl     = template.Must(template.New("reminder").Parse(reminderTemplate))
)

type bookingMailData struct {
	Name       string
	Shop       string
	Service    string
	Date       string
	Hour       string
	BookingID  string
	Visit      int
	FirstVisit bool
}

func newBookingMailData(b *domain.Booking, shop string) bookingMailData {
	d := bookingMailData{
		Name:       b.CustomerName,
		Shop:       shop,
		Service:    b.Service,
		Date:       b.Date.String(),
		Hour:       b.Hour.String(),
		BookingID:  b.ID,
		FirstVisit: b.IsFirstService(),
	}
	if b.ServiceCount != nil {
		d.Visit = *b.ServiceCount
	}
	return d
}

func render(tmpl *template.Template, data bookingMailData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRender, tmpl.Name(), err)
	}
	return buf.String(), nil
}
