package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// hashSeparator 指纹各字段间的分隔符，避免不同字段组合产生相同拼接结果
const hashSeparator = "|"

// HashKey 计算线索身份指纹：规范化后的 (email, domain, phone) 三元组的 SHA-256，
// 64位小写十六进制。companyDomain 为空时回退使用邮箱域名，保证只有邮箱的
// 上传记录与补全过公司域名的记录可以互相比对。大小写、空白、电话格式
// 均不影响指纹结果。
func HashKey(email, companyDomain, phone string) string {
	normalizedEmail := NormalizeEmail(email)

	domain := strings.ToLower(strings.TrimSpace(companyDomain))
	if domain == "" {
		domain = DomainFromEmail(normalizedEmail)
	}

	normalizedPhone := NormalizePhone(phone)

	input := normalizedEmail + hashSeparator + domain + hashSeparator + normalizedPhone
	sum := sha256.Sum256([]byte(input))

	return hex.EncodeToString(sum[:])
}
