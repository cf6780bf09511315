package service

import "golang.org/x/crypto/bcrypt"

// passwordCost fija el factor de trabajo de bcrypt.
const passwordCost = 12

// HashPassword genera un hash bcrypt con sal embebida.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compara en tiempo constante; cualquier fallo (mismatch o
// hash malformado) se reporta como verificación fallida.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
