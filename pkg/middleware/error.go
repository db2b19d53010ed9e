package middleware

import (
	"errors"

	"eventhub/pkg/errutil"

	"github.com/gin-gonic/gin"
)

// Error renders the last gin error as the shared JSON error envelope.
// Unclassified errors become 500 INTERNAL without leaking their text.
func Error() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		ginErr := c.Errors.Last()
		if ginErr == nil {
			return
		}

		var be errutil.BaseError
		if errors.As(ginErr.Err, &be) {
			c.JSON(be.Code.HTTPStatus(), be.JSON())
			return
		}

		internal := errutil.BaseError{Code: errutil.StatusInternal, Message: "internal error"}
		c.JSON(internal.Code.HTTPStatus(), internal.JSON())
	}
}
