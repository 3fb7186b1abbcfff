package repository

const (
	getCredential = `
		SELECT username, api_key
		FROM users
		WHERE username = ?
		LIMIT 1;`

	// single-statement upsert: the existence check and the write cannot race
	saveCredential = `
		INSERT INTO users (username, api_key)
		VALUES (?, ?)
		ON CONFLICT(username) DO UPDATE SET api_key = excluded.api_key;`
)
