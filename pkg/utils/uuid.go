package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

func GenerateID() (string, error) {
	return gonanoid.Generate(characters, 6)
}

// GenerateRunID identifica uma execução de recálculo; cai para "manual" se o gerador falhar
func GenerateRunID(prefix string) string {
	id, err := GenerateID()
	if err != nil {
		return prefix + "-manual"
	}
	return prefix + "-" + id
}
