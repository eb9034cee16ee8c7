package service

import (
	"unicode"

	"repurpose-server/internal/models"
)

// minPasswordLength - минимальная длина пароля, засчитываемая как критерий надежности.
const minPasswordLength = 8

// ClassifyPasswordStrength оценивает надежность пароля по четырем критериям:
// длина не меньше minPasswordLength, наличие буквы и цифры, смешанный регистр
// и наличие спецсимвола. Один выполненный критерий или меньше - weak,
// два или три - medium, все четыре - strong.
// Функция чистая и не обращается ни к каким хранилищам.
func ClassifyPasswordStrength(password string) models.PasswordStrength {
	var (
		hasLetter bool
		hasDigit  bool
		hasUpper  bool
		hasLower  bool
		hasSymbol bool
	)
	for _, char := range password {
		switch {
		case unicode.IsDigit(char):
			hasDigit = true
		case unicode.IsLetter(char):
			hasLetter = true
			if unicode.IsUpper(char) {
				hasUpper = true
			}
			if unicode.IsLower(char) {
				hasLower = true
			}
		default:
			hasSymbol = true
		}
	}

	score := 0
	if len(password) >= minPasswordLength {
		score++
	}
	if hasLetter && hasDigit {
		score++
	}
	if hasUpper && hasLower {
		score++
	}
	if hasSymbol {
		score++
	}

	switch {
	case score <= 1:
		return models.PasswordWeak
	case score <= 3:
		return models.PasswordMedium
	default:
		return models.PasswordStrong
	}
}
