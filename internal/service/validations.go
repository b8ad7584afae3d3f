package service

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

// Package for custom validations
var (
	validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("pin", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			// 6 bytes of ASCII digits, so multi-byte digit runes can't
			// sneak a shorter PIN through
			if len(value) != 6 {
				return false
			}
			for _, char := range value {
				if char < '0' || char > '9' {
					return false
				}
			}
			return true
		})
	})
}
