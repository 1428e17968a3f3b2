package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"小写转换", "John.Doe@Company.com", "john.doe@company.com"},
		{"去除首尾空白", "  john@company.com  ", "john@company.com"},
		{"Gmail去除点号", "j.o.h.n.doe@gmail.com", "johndoe@gmail.com"},
		{"googlemail同样去除点号", "j.doe@googlemail.com", "jdoe@googlemail.com"},
		{"非Gmail保留点号", "john.doe@company.com", "john.doe@company.com"},
		{"Gmail大写混合", "J.Doe@GMAIL.COM", "jdoe@gmail.com"},
		{"缺少@原样返回", "not-an-email", "not-an-email"},
		{"空串", "", ""},
		{"只有空白", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeEmail(tt.input))
		})
	}
}

func TestNormalizeEmailIdempotent(t *testing.T) {
	inputs := []string{
		"John.Doe@Company.com",
		"j.o.h.n.doe@gmail.com",
		"  MIXED@Case.IO  ",
		"no-at-sign",
		"",
	}

	for _, input := range inputs {
		once := NormalizeEmail(input)
		assert.Equal(t, once, NormalizeEmail(once), "input: %q", input)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"带国家码和分隔符", "+1-555-123-4567", "5551234567"},
		{"括号格式", "(555) 123-4567", "5551234567"},
		{"纯数字", "5551234567", "5551234567"},
		{"11位非1开头不截断", "25551234567", "25551234567"},
		{"10位以1开头不截断", "1551234567", "1551234567"},
		{"空串", "", ""},
		{"无数字", "abc-def", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.input))
		})
	}
}

func TestNormalizePhoneEquivalentFormats(t *testing.T) {
	// 同一号码的不同书写格式必须归一到同一结果
	assert.Equal(t, NormalizePhone("+1-555-123-4567"), NormalizePhone("(555) 123-4567"))
	assert.Equal(t, NormalizePhone("1 555 123 4567"), NormalizePhone("555.123.4567"))
}

func TestDomainFromEmail(t *testing.T) {
	assert.Equal(t, "company.com", DomainFromEmail("john@Company.com"))
	assert.Equal(t, "gmail.com", DomainFromEmail("  jane@GMAIL.com "))
	assert.Equal(t, "", DomainFromEmail("no-at-sign"))
	assert.Equal(t, "", DomainFromEmail(""))
}
