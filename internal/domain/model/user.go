// user.go — модель пользователя (коллекция users).
// Коллекция принадлежит сервису регистрации; здесь только чтение.
package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// User — пользователь системы.
// PasswordDigest — legacy SHA-1 hex digest пароля (поле password в документе,
// формат задан сервисом регистрации и не меняется здесь).
type User struct {
	// ID — идентификатор документа
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	// Email — адрес пользователя
	Email string `bson:"email" json:"email"`
	// PasswordDigest — SHA-1 hex digest пароля
	PasswordDigest string `bson:"password" json:"-"`
}
