// A throwaway Permission Lookup Service for local end-to-end runs. Serves
// GET /users/:id from a fixed in-memory table in the exact shape the
// hydrator expects.
package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type userPermission struct {
	ID        string   `json:"id"`
	Role      string   `json:"role"`
	Companies []string `json:"companies"`
}

var users = map[string]userPermission{
	"u1": {ID: "u1", Role: "Manager", Companies: []string{"c1", "c2"}},
	"u2": {ID: "u2", Role: "Clerk", Companies: []string{"c2"}},
}

func main() {
	addr := flag.String("addr", ":9098", "listen address")
	flag.Parse()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/users/:id", func(c *gin.Context) {
		id := c.Param("id")
		user, ok := users[id]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
			return
		}
		c.JSON(http.StatusOK, user)
	})

	log.Printf("permissions stub listening on %s", *addr)
	if err := router.Run(*addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
