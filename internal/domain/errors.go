package domain

import "errors"

var (
	ErrValidation    = errors.New("check your inputs")
	ErrCodec         = errors.New("image could not be decoded")
	ErrUpload        = errors.New("image upload failed")
	ErrStore         = errors.New("product could not be stored")
	ErrInvalidNumber = errors.New("invalid number")
	ErrNotFound      = errors.New("not found")
)
