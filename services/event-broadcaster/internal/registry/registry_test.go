package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeConn struct {
	id string
}

func (c *fakeConn) Send([]byte) bool { return true }

func (c *fakeConn) Close() {}

func TestRegistry_AddRemove(t *testing.T) {
	r := New()
	a, b := &fakeConn{id: "a"}, &fakeConn{id: "b"}

	r.Add("u1", a)
	r.Add("u1", b)
	r.Add("u1", a)
	assert.Equal(t, 2, r.Count("u1"))
	assert.Equal(t, []string{"u1"}, r.Users())

	assert.True(t, r.Remove("u1", a))
	assert.False(t, r.Remove("u1", a))
	assert.Equal(t, 1, r.Count("u1"))

	assert.True(t, r.Remove("u1", b))
	assert.Equal(t, 0, r.Count("u1"))
	assert.Empty(t, r.Users())
	assert.Empty(t, r.users, "empty user entries are deleted")

	assert.False(t, r.Remove("missing", a))
}

func TestRegistry_ForEach(t *testing.T) {
	r := New()
	a, b, c := &fakeConn{id: "a"}, &fakeConn{id: "b"}, &fakeConn{id: "c"}
	r.Add("u1", a)
	r.Add("u1", b)
	r.Add("u2", c)

	seen := map[string]bool{}
	r.ForEach("u1", func(conn Conn) {
		seen[conn.(*fakeConn).id] = true
	})
	assert.Equal(t, map[string]bool{"a": true, "b": true}, seen)

	called := false
	r.ForEach("nobody", func(Conn) { called = true })
	assert.False(t, called)

	assert.Equal(t, 3, r.Total())
}

func TestRegistry_Concurrent(t *testing.T) {
	r := New()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := fmt.Sprintf("u%d", i%5)
			conn := &fakeConn{id: fmt.Sprint(i)}

			r.Add(userID, conn)
			r.ForEach(userID, func(c Conn) { c.Send(nil) })
			_ = r.Count(userID)
			_ = r.Users()
			r.Remove(userID, conn)
		}(i)
	}
	wg.Wait()

	assert.Zero(t, r.Total())
	assert.Empty(t, r.Users())
}
