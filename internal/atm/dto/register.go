package dto

type RegisterInput struct {
	Username string `json:"username"`
	Pin      string `json:"pin"`
}

type RegisterOutput struct {
	Username string `json:"username"`
}
