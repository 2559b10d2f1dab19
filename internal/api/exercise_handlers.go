package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yourname/exercisetracker/internal/response"
	"github.com/yourname/exercisetracker/internal/service"
)

func PostNewUser(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.NewUserRequest
		if err := c.ShouldBind(&req); err != nil {
			HandleError(c, app.Logger(), response.BadRequest("Invalid request body: "+err.Error()), "Invalid body")
			return
		}
		if err := service.ValidateNewUserRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, "Validation failed")
			return
		}

		user, err := service.CreateUser(c.Request.Context(), app.UserRepo(), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to create user")
			return
		}

		HandleSuccess(c, app.Logger(), user)
	}
}

func GetUsers(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := service.ListUsers(c.Request.Context(), app.UserRepo())
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to list users")
			return
		}
		app.Logger().Infof("users: %+v", users)

		HandleSuccess(c, app.Logger(), users)
	}
}

func PostExercise(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.AddExerciseRequest
		if err := c.ShouldBind(&req); err != nil {
			HandleError(c, app.Logger(), response.BadRequest("Invalid request body: "+err.Error()), "Invalid body")
			return
		}
		app.Logger().Debugf("Parsed AddExerciseRequest: %+v", req)

		if err := service.ValidateAddExerciseRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, "Validation failed")
			return
		}

		exercise, err := service.AddExercise(c.Request.Context(), app.ExerciseRepo(), &req, app.Now(), app.Location())
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to save exercise")
			return
		}

		HandleSuccess(c, app.Logger(), exercise)
	}
}

func GetLog(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q service.LogQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			HandleError(c, app.Logger(), response.BadRequest("Invalid query: "+err.Error()), "Invalid query")
			return
		}
		if err := service.ValidateLogQuery(&q); err != nil {
			HandleError(c, app.Logger(), err, "Validation failed")
			return
		}

		log, err := service.GetLog(c.Request.Context(), app.UserRepo(), app.ExerciseRepo(), &q)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to fetch log")
			return
		}

		HandleSuccess(c, app.Logger(), log)
	}
}
