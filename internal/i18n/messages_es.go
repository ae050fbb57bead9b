package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.Spanish

	message.SetString(lang, MaxGuestsReached, "Puedes agregar hasta %d invitados adicionales.")
	message.SetString(lang, MetaFail, "No pudimos cargar tu invitación. Revisa tu código.")
	message.SetString(lang, NameRequired, "Por favor ingresa tu nombre y apellido.")
	message.SetString(lang, Submitted, "¡Gracias! Tu confirmación ha sido enviada.")
	message.SetString(lang, Failed, "El envío falló: %s")
	message.SetString(lang, SettingsFail, "No se pudo cargar la configuración, usando valores predeterminados.")
	message.SetString(lang, Closed, "Las confirmaciones están cerradas.")
	message.SetString(lang, InviteRequired, "Se requiere un código de invitación para confirmar.")
	message.SetString(lang, InviteCodeMissing, "Por favor ingresa tu código de invitación.")
	message.SetString(lang, AlreadySubmitted, "Ya se envió una confirmación desde este dispositivo.")
	message.SetString(lang, NotReady, "Tu invitación aún no se ha cargado.")
	message.SetString(lang, GuestsLimit, "%d de %d invitados adicionales (%d restantes)")
}
