package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/soaringjerry/Persona/internal/utils"
)

const localeKey = "persona.locale"

// Locale extracts the locale from the lang query param or Accept-Language
// and stores it on the gin context.
func Locale() gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := utils.DetermineLocale(c.Query("lang"), c.GetHeader("Accept-Language"), utils.Locales, "en")
		c.Set(localeKey, locale)
		c.Header("Content-Language", locale)
		c.Next()
	}
}

// LocaleFrom retrieves the locale stored by Locale.
func LocaleFrom(c *gin.Context) string {
	if v := c.GetString(localeKey); v != "" {
		return v
	}
	return "en"
}

// T translates key into the request's locale.
func T(c *gin.Context, key string) string {
	return utils.T(LocaleFrom(c), key)
}
