package response

import "github.com/gin-gonic/gin"

// OK writes {"success": true, ...fields}.
func OK(c *gin.Context, status int, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		if k == "success" {
			continue
		}
		body[k] = v
	}
	c.JSON(status, body)
}

// Body builds a failure body. An empty msg falls back to the default text of
// the status.
func Body(status int, msg string) gin.H {
	if msg == "" {
		msg = MessageFor(status)
	}
	return gin.H{"success": false, "error": msg}
}

func Fail(c *gin.Context, status int, msg string) {
	c.JSON(status, Body(status, msg))
}

func Abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Body(status, msg))
}
