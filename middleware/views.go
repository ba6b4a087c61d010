package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/wemake/store"
	"github.com/cppla/wemake/utils"
)

// ViewCounter calls record with the id in path parameter param after a successful GET. The count
// is written off the request path so a slow database does not delay the response.
func ViewCounter(param string, record func(ctx context.Context, id uint) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method != "GET" {
			return
		}
		if status := c.Writer.Status(); status < 200 || status >= 300 {
			return
		}
		id, err := store.ParseID(c.Param(param))
		if err != nil {
			return
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := record(ctx, id); err != nil {
				utils.Sugar.Warnw("count view failed", "id", id, "err", err)
			}
		}()
	}
}
