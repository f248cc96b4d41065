package validate

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCodeWord_Valid(t *testing.T) {
	cases := map[string]string{
		"1234":              "1234",
		"  1234  ":          "1234",
		"при з":             "приз",
		"Priz-2025":         "Priz-2025",
		"ко до вое слово":   "кодовоеслово",
		"abcdefghijklmnop":  "abcdefghijklmnop", // exactly 16
		"wow!":              "wow!",
		"emoji 🎉 stripped": "emojistripped",
	}
	for raw, want := range cases {
		got, err := CodeWord(raw)
		require.NoError(t, err, "input %q", raw)
		require.Equal(t, want, got, "input %q", raw)
	}
}

func TestCodeWord_SixteenAccepted_SeventeenRejected(t *testing.T) {
	ok := strings.Repeat("д", 16)
	got, err := CodeWord(ok)
	require.NoError(t, err)
	require.Equal(t, ok, got)

	_, err = CodeWord(strings.Repeat("д", 17))
	require.ErrorIs(t, err, ErrCodeWordTooLong)
}

func TestCodeWord_EmptyAfterStripping(t *testing.T) {
	for _, raw := range []string{"", "   ", "🎉🎉", "@#$%"} {
		_, err := CodeWord(raw)
		require.ErrorIs(t, err, ErrCodeWordEmpty, "input %q", raw)
	}
}

func TestCodeWord_InputBound(t *testing.T) {
	_, err := CodeWord(strings.Repeat("a", 101))
	require.ErrorIs(t, err, ErrCodeWordInputTooLong)
}

func TestCodeWord_SQLMarkersRejected(t *testing.T) {
	for _, raw := range []string{"drop--", "a;b", "/*x", "x*/", "it's", `say "hi"`, "ti`ck"} {
		_, err := CodeWord(raw)
		require.ErrorIs(t, err, ErrCodeWordForbidden, "input %q", raw)
	}
}

func TestPhone_DomesticRewrite(t *testing.T) {
	got, err := Phone("89123456789", false, 0)
	require.NoError(t, err)
	require.Equal(t, "+79123456789", got)
}

func TestPhone_FormattedInternational(t *testing.T) {
	got, err := Phone("+7 (912) 345-67-89", false, 0)
	require.NoError(t, err)
	require.Equal(t, "+79123456789", got)
}

func TestPhone_InteriorPlusCollapsed(t *testing.T) {
	got, err := Phone("7+912+345-67-89", false, 0)
	require.NoError(t, err)
	require.Equal(t, "+79123456789", got)
}

func TestPhone_StructuredVerbatim(t *testing.T) {
	got, err := Phone("79123456789", true, 0)
	require.NoError(t, err)
	require.Equal(t, "79123456789", got)
}

func TestPhone_Rejections(t *testing.T) {
	_, err := Phone("", false, 0)
	require.ErrorIs(t, err, ErrPhoneEmpty)

	_, err = Phone("abc-def", false, 0)
	require.ErrorIs(t, err, ErrPhoneEmpty)

	_, err = Phone("12345", false, 0)
	require.ErrorIs(t, err, ErrPhoneTooShort)

	_, err = Phone(strings.Repeat("1", 31), false, 0)
	require.ErrorIs(t, err, ErrPhoneInputTooLong)
}

func TestPhone_MinDigitsConfigurable(t *testing.T) {
	_, err := Phone("+7912345678", false, 11)
	require.ErrorIs(t, err, ErrPhoneTooShort)

	got, err := Phone("+79123456789", false, 11)
	require.NoError(t, err)
	require.Equal(t, "+79123456789", got)
}

func TestDrawDate(t *testing.T) {
	got, err := DrawDate("04.12.2025")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 12, 4, 0, 0, 0, 0, time.Local), got)

	_, err = DrawDate("2025-12-04")
	require.ErrorIs(t, err, ErrDateFormat)

	_, err = DrawDate("32.13.2025")
	require.ErrorIs(t, err, ErrDateFormat)

	_, err = DrawDate("tomorrow")
	require.ErrorIs(t, err, ErrDateFormat)
}
