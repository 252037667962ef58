// Package response provides handler.Response constructors and error handlers
// for the router.
//
// A handler returns a Response; the router renders it after the middleware
// chain has unwound:
//
//	func getUser(ctx *router.Context) handler.Response {
//		user, err := users.Find(ctx, ctx.Param("id"))
//		if err != nil {
//			return response.Error(response.ErrNotFound.WithError(err))
//		}
//		return response.JSON(user)
//	}
//
// Errors returned while rendering travel back through every middleware and
// reach the router's error handler once. ErrorHandler and JSONErrorHandler
// map them to a status: an HTTPError keeps its own, any error with a
// StatusCode() int method (router.ErrNotFound) gets the matching HTTPError,
// and everything else is a 500. Recovered panics are reported as a bare 500.
//
//	r := router.New[*router.Context](
//		router.WithErrorHandler(response.JSONErrorHandler[*router.Context]),
//	)
package response
