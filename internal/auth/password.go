package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword 生成密码的 bcrypt 哈希。
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// PasswordMatches 校验明文密码与哈希是否匹配，不匹配只返回 false，不报错。
func PasswordMatches(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
