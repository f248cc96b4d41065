package flow

import (
	"errors"
	"fmt"

	"github.com/prizedraw/backend/internal/models"
	"github.com/prizedraw/backend/internal/validate"
)

// User-facing texts. Wording follows the announcement channel's tone;
// the retry hint is appended wherever the user can fix the input.
const (
	retryHint = "Попробуйте еще раз или нажмите /start, чтобы начать заново."

	msgGreeting = "Привет, %s! ✨\n\n" +
		"Я бот для участия в розыгрыше призов!\n\n" +
		"Чтобы участвовать:\n" +
		"1. Введите кодовое слово из эфира\n" +
		"2. Поделитесь номером телефона\n\n" +
		"Введите кодовое слово:"

	msgRestart = "Начнем заново! ✨\n\nВведите кодовое слово:"

	msgCodeAccepted = "✅ Кодовое слово «%s» принято!\n\n" +
		"Теперь поделитесь номером телефона, чтобы мы могли связаться с вами в случае выигрыша.\n" +
		"Можно нажать кнопку ниже или ввести номер вручную (например: +79123456789 или 89123456789)."

	msgNoSession = "Нажмите /start, чтобы начать регистрацию."

	msgCodeFirst = "Сначала введите кодовое слово, потом номер телефона.\n" + retryHint

	msgSessionExpired = "⚠️ Сессия устарела. Нажмите /start, чтобы начать заново."

	msgCancelled = "Регистрация отменена.\n\nНажмите /start, чтобы начать заново."

	msgStorageError = "⚠️ Произошла ошибка при сохранении данных.\n" +
		"Пожалуйста, попробуйте позже или нажмите /start для повторной попытки."

	msgAlreadyGeneric = "❌ Вы уже участвовали в розыгрыше сегодня!\n\n" +
		"Вы сможете участвовать снова завтра!\nНажмите /start для участия в другом розыгрыше:"
)

func greeting(user User) string {
	name := user.DisplayName
	if name == "" {
		name = "участник"
	}
	return fmt.Sprintf(msgGreeting, name)
}

func codeAccepted(word string) string {
	return fmt.Sprintf(msgCodeAccepted, word)
}

func alreadyParticipated(existing *models.ParticipantEntry) string {
	if existing == nil {
		return msgAlreadyGeneric
	}
	return fmt.Sprintf(
		"❌ Вы уже участвовали в розыгрыше сегодня!\n\n"+
			"Ваши данные:\n"+
			"• Кодовое слово: %s\n"+
			"• Время: %s\n\n"+
			"Вы сможете участвовать снова завтра!\n"+
			"Нажмите /start для участия в другом розыгрыше:",
		existing.CodeWord, existing.RegistrationTime.Format("15:04:05"),
	)
}

func registered(user User, entry *models.ParticipantEntry) string {
	name := user.DisplayName
	if name == "" {
		name = "участник"
	}
	return fmt.Sprintf(
		"🎉 Поздравляем, %s!\n\n"+
			"✅ Вы успешно зарегистрированы в розыгрыше!\n\n"+
			"📊 Ваши данные:\n"+
			"• Кодовое слово: %s\n"+
			"• Телефон: %s\n"+
			"• Дата: %s\n"+
			"• Время: %s\n\n"+
			"Следите за новостями! Результаты будут объявлены позже. 🍀\n\n"+
			"Хотите участвовать снова? Нажмите /start (завтра)",
		name, entry.CodeWord, entry.Phone,
		entry.Date.Format("02.01.2006"), entry.RegistrationTime.Format("15:04:05"),
	)
}

// rejectionText turns a validator rejection into user-facing text with the
// specific reason.
func rejectionText(err error) string {
	var reason string
	switch {
	case errors.Is(err, validate.ErrCodeWordInputTooLong):
		reason = "❌ Сообщение слишком длинное для кодового слова."
	case errors.Is(err, validate.ErrCodeWordForbidden):
		reason = "❌ Кодовое слово содержит недопустимые символы."
	case errors.Is(err, validate.ErrCodeWordEmpty):
		reason = "❌ Кодовое слово не должно быть пустым. Используйте буквы и цифры."
	case errors.Is(err, validate.ErrCodeWordTooLong):
		reason = fmt.Sprintf("❌ Кодовое слово слишком длинное (максимум %d символов).", validate.MaxCodeWordLen)
	case errors.Is(err, validate.ErrPhoneInputTooLong):
		reason = "❌ Номер телефона слишком длинный."
	case errors.Is(err, validate.ErrPhoneEmpty):
		reason = "❌ Номер телефона должен содержать цифры.\nПримеры: +79123456789, 89123456789, +7(912)345-67-89"
	case errors.Is(err, validate.ErrPhoneTooShort):
		reason = "❌ Номер телефона слишком короткий."
	default:
		reason = "❌ Не удалось обработать сообщение."
	}
	return reason + "\n" + retryHint
}
