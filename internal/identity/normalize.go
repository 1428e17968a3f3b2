package identity

import (
	"strings"
)

// NormalizeEmail 规范化邮箱地址：统一小写并去除首尾空白；
// Gmail 系域名的本地部分忽略所有点号（Gmail 对点号不敏感），其他域名保留点号。
// 非法输入（缺少@）不报错，按最佳努力返回规范化后的原串。
func NormalizeEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))

	at := strings.Index(email, "@")
	if at < 0 {
		return email
	}

	local := email[:at]
	domain := email[at+1:]

	// Gmail 对本地部分的点号不敏感：j.o.h.n@gmail.com 等价于 john@gmail.com
	if domain == "gmail.com" || domain == "googlemail.com" {
		local = strings.ReplaceAll(local, ".", "")
	}

	return local + "@" + domain
}

// NormalizePhone 规范化电话号码：只保留数字；
// 11位且以1开头视为带美国国家码，去掉前导1。空输入返回空串，不报错。
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	digits := b.String()
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}

	return digits
}

// DomainFromEmail 提取邮箱域名部分（小写）；没有@时返回空串
func DomainFromEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))

	at := strings.Index(email, "@")
	if at < 0 {
		return ""
	}

	return email[at+1:]
}
