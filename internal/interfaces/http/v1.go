package http

import (
	infra "github.com/coursekit/coursekit/internal/infrastructure"
	"github.com/labstack/echo/v4"
)

func v1Endpoint(
	websocket *infra.Websocket,
	UserHandler *UserHandler,
	ProductHandler *ProductHandler,
	LessonHandler *LessonHandler,
	ProgressHandler *ProgressHandler,
	jwtMiddleware echo.MiddlewareFunc,
	refreshMiddleware echo.MiddlewareFunc,
	requestIDMiddleware echo.MiddlewareFunc,
	traceLoggerMiddleware echo.MiddlewareFunc,
) *endpoint {
	return &endpoint{
		apiVersion:  "api/v1",
		middlewares: []echo.MiddlewareFunc{requestIDMiddleware, traceLoggerMiddleware},
		groups: []*apiGroup{
			{
				prefix: "/user",
				routes: []*route{
					{"POST", "/login", UserHandler.HandleSignIn, nil},
					{"PUT", "/sign-out", UserHandler.HandleSignOut, nil},
					{"POST", "/sign-up", UserHandler.HandleSignUp, nil},
					{"GET", "/exists", UserHandler.HandleUserExists, nil},
				},
			},
			{
				prefix:      "/product",
				middlewares: []echo.MiddlewareFunc{jwtMiddleware, refreshMiddleware},
				routes: []*route{
					{"GET", "/", ProductHandler.HandleGetProducts, nil},
					{"POST", "/", ProductHandler.HandleCreateProduct, nil},
					{"PUT", "/:id", ProductHandler.HandleUpdateProduct, nil},
					{"DELETE", "/:id", ProductHandler.HandleDeleteProduct, nil},
					{"POST", "/:id/access", ProductHandler.HandleGrantAccess, nil},
					{"PUT", "/:id/lessons", ProductHandler.HandleAttachLesson, nil},
				},
			},
			{
				prefix:      "/lesson",
				middlewares: []echo.MiddlewareFunc{jwtMiddleware, refreshMiddleware},
				routes: []*route{
					{"GET", "/", LessonHandler.HandleGetLessons, nil},
					{"POST", "/", LessonHandler.HandleCreateLesson, nil},
				},
			},
			{
				prefix:      "/lesson-progress",
				middlewares: []echo.MiddlewareFunc{jwtMiddleware, refreshMiddleware},
				routes: []*route{
					{"GET", "/", ProgressHandler.HandleListProgress, nil},
					{"POST", "/", ProgressHandler.HandleRecordProgress, nil},
					{"PUT", "/:id", ProgressHandler.HandleUpdateProgress, nil},
				},
			},
			{
				prefix: "/ws",
				routes: []*route{
					{"GET", "/echo", websocket.WithHeartbeat(HandleEcho), nil},
				},
			},
		},
	}
}
