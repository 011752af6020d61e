package auth

import "golang.org/x/crypto/bcrypt"

// PasswordCost is the bcrypt work factor (2^10 rounds).
const PasswordCost = bcrypt.DefaultCost

func HashPassword(p string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(p), PasswordCost)
	return string(b), err
}

// VerifyPassword reports whether plain matches hash. Mismatches and
// malformed hashes both report false.
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// dummyHash is compared against when a login names an unknown email, so that
// path spends the same bcrypt time as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("sweetshop-timing-equalizer"), PasswordCost)

func BurnPasswordCheck(plain string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
}
