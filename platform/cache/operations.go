package cache

import (
	"github.com/gomodule/redigo/redis"
)

func GetBytes(key string, conn redis.Conn) ([]byte, error) {
	return redis.Bytes(conn.Do("GET", key))
}

func Del(key string, conn redis.Conn) error {
	_, err := conn.Do("DEL", key)
	return err
}

// SetNX stores value only if key is absent and reports whether it did.
func SetNX(key string, value interface{}, conn redis.Conn) (bool, error) {
	reply, err := redis.String(conn.Do("SET", key, value, "NX"))
	if err == redis.ErrNil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return reply == "OK", nil
}

// CompareAndSet replaces key with value while key still holds a document
// accepted by check. It returns false when check rejects the current value
// or another client wrote key between WATCH and EXEC.
func CompareAndSet(key string, value []byte, check func(current []byte) bool, conn redis.Conn) (bool, error) {
	if _, err := conn.Do("WATCH", key); err != nil {
		return false, err
	}
	current, err := GetBytes(key, conn)
	if err != nil && err != redis.ErrNil {
		conn.Do("UNWATCH")
		return false, err
	}
	if !check(current) {
		_, err := conn.Do("UNWATCH")
		return false, err
	}

	if err := conn.Send("MULTI"); err != nil {
		return false, err
	}
	if err := conn.Send("SET", key, value); err != nil {
		return false, err
	}
	_, err = redis.Values(conn.Do("EXEC"))
	if err == redis.ErrNil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
