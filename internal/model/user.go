package model

type ContextKey string

const (
	// UserIDKey は認証ミドルウェアがコンテキストに格納するユーザーIDのキー
	UserIDKey ContextKey = "userID"
)
