// Copyright 2025 gusto Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server exposes the recommendation engine and the data store over a
// REST-ful API.
package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/gusto-io/gusto/base/log"
	"github.com/gusto-io/gusto/config"
	"github.com/gusto-io/gusto/dataset"
	"github.com/gusto-io/gusto/recommend"
	"github.com/gusto-io/gusto/storage/data"
)

// RestServer implements a REST-ful API server.
type RestServer struct {
	DataClient  data.Database
	Config      *config.Config
	Recommender *recommend.Recommender
	Catalog     CatalogLookup
	HttpHost    string
	HttpPort    int
	WebService  *restful.WebService
}

// NewRestServer creates a REST-ful API server on top of a data store. The
// built-in menu backs the catalog lookup; replace Catalog to join against a
// different one.
func NewRestServer(cfg *config.Config, dataClient data.Database) *RestServer {
	return &RestServer{
		DataClient:  dataClient,
		Config:      cfg,
		Recommender: recommend.NewRecommender(&cfg.Recommend),
		Catalog:     StaticCatalog(StaticFoods),
		HttpHost:    cfg.Server.HttpHost,
		HttpPort:    cfg.Server.HttpPort,
		WebService:  new(restful.WebService),
	}
}

// StartHttpServer starts the REST-ful API server.
func (s *RestServer) StartHttpServer() {
	// register restful APIs
	s.CreateWebService()
	restful.DefaultContainer.Add(s.WebService)
	// register swagger UI
	specConfig := restfulspec.Config{
		WebServices: restful.RegisteredWebServices(),
		APIPath:     "/apidocs.json",
	}
	restful.DefaultContainer.Add(restfulspec.NewOpenAPIService(specConfig))
	// register prometheus
	http.Handle("/metrics", promhttp.Handler())

	log.Logger().Info("start http server",
		zap.String("url", fmt.Sprintf("http://%s:%d", s.HttpHost, s.HttpPort)))
	log.Logger().Fatal("failed to start http server",
		zap.Error(http.ListenAndServe(fmt.Sprintf("%s:%d", s.HttpHost, s.HttpPort), nil)))
}

func LogFilter(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	chain.ProcessFilter(req, resp)
	log.Logger().Info(fmt.Sprintf("%s %s", req.Request.Method, req.Request.URL),
		zap.Int("status_code", resp.StatusCode()))
}

// CreateWebService creates web service.
func (s *RestServer) CreateWebService() {
	ws := s.WebService
	ws.Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)
	ws.Path("/api/")
	ws.Filter(LogFilter)

	// Get recommendations for a user
	ws.Route(ws.GET("/recommendations/{user-id}").To(s.getRecommendations).
		Doc("Get recommended foods for a user.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"recommendation"}).
		Param(ws.PathParameter("user-id", "identifier of the user").DataType("string")).
		Param(ws.QueryParameter("n", "number of returned recommendations").DataType("int")).
		Writes(RecommendationList{}))

	// Insert a user
	ws.Route(ws.POST("/user").To(s.insertUser).
		Doc("Insert a user.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"user"}).
		Reads(data.User{}))
	// Get a user
	ws.Route(ws.GET("/user/{user-id}").To(s.getUser).
		Doc("Get a user.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"user"}).
		Param(ws.PathParameter("user-id", "identifier of the user").DataType("string")).
		Writes(data.User{}))
	// Get a user's reviews
	ws.Route(ws.GET("/user/{user-id}/reviews").To(s.getUserReviews).
		Doc("Get reviews written by a user.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"review"}).
		Param(ws.PathParameter("user-id", "identifier of the user").DataType("string")).
		Writes([]data.Review{}))

	// Insert a food
	ws.Route(ws.POST("/food").To(s.insertFood).
		Doc("Insert a food.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"food"}).
		Reads(data.Food{}))
	// Get a food
	ws.Route(ws.GET("/food/{food-id}").To(s.getFood).
		Doc("Get a food.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"food"}).
		Param(ws.PathParameter("food-id", "identifier of the food").DataType("string")).
		Writes(data.Food{}))
	// Get a food's reviews
	ws.Route(ws.GET("/food/{food-id}/reviews").To(s.getFoodReviews).
		Doc("Get reviews of a food.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"review"}).
		Param(ws.PathParameter("food-id", "identifier of the food").DataType("string")).
		Writes([]data.Review{}))
	// Get foods
	ws.Route(ws.GET("/foods").To(s.getFoods).
		Doc("Get foods.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"food"}).
		Writes([]data.Food{}))

	// Insert a review
	ws.Route(ws.POST("/review").To(s.insertReview).
		Doc("Insert or overwrite a user's review of a food.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"review"}).
		Reads(data.Review{}))
	// Get reviews
	ws.Route(ws.GET("/reviews").To(s.getReviews).
		Doc("Get all reviews.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"review"}).
		Writes([]data.Review{}))

	// Health check
	ws.Route(ws.GET("/health").To(s.getHealth).
		Doc("Probe the server and its data store.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
		Writes(HealthStatus{}))
}

// RecommendedFood is one recommendation joined with food meta data.
type RecommendedFood struct {
	Food            data.Food `json:"food"`
	PredictedRating float64   `json:"predictedRating"`
}

// RecommendationList is the response of the recommendation endpoint.
type RecommendationList struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message"`
	Fallback bool              `json:"fallback"`
	Data     []RecommendedFood `json:"data"`
}

// Success is the response of mutating endpoints.
type Success struct {
	RowAffected int
}

// HealthStatus is the response of the health endpoint.
type HealthStatus struct {
	Ready bool `json:"ready"`
}

func ParseInt(request *restful.Request, name string, fallback int) (value int, err error) {
	valueString := request.QueryParameter(name)
	value, err = strconv.Atoi(valueString)
	if err != nil && valueString == "" {
		value = fallback
		err = nil
	}
	return
}

func (s *RestServer) getRecommendations(request *restful.Request, response *restful.Response) {
	startTime := time.Now()
	ctx := request.Request.Context()
	userId := request.PathParameter("user-id")
	topN, err := ParseInt(request, "n", s.Config.Recommend.TopN)
	if err != nil {
		BadRequest(response, err)
		return
	}
	reviews, err := s.DataClient.GetReviews(ctx)
	if err != nil {
		InternalServerError(response, err)
		return
	}
	foods, err := s.DataClient.GetFoods(ctx)
	if err != nil {
		InternalServerError(response, err)
		return
	}
	result, err := s.Recommender.Recommend(&recommend.Request{
		Ratings: lo.Map(reviews, func(review data.Review, _ int) dataset.Rating {
			return dataset.Rating{UserId: review.UserId, ItemId: review.FoodId, Value: review.Rating}
		}),
		ItemIds: lo.Map(foods, func(food data.Food, _ int) string { return food.FoodId }),
		UserId:  userId,
		N:       topN,
	})
	if err != nil {
		InternalServerError(response, err)
		return
	}
	if result.Fallback {
		FallbackRecommendTotal.Inc()
	}
	Ok(response, RecommendationList{
		Success:  true,
		Message:  result.Message,
		Fallback: result.Fallback,
		Data: lo.Map(result.Recommendations, func(r recommend.Recommendation, _ int) RecommendedFood {
			return RecommendedFood{
				Food:            lookupFood(r.ItemId, foods, s.Catalog),
				PredictedRating: math.Round(r.PredictedRating*100) / 100,
			}
		}),
	})
	GetRecommendSeconds.Observe(time.Since(startTime).Seconds())
}

func (s *RestServer) insertUser(request *restful.Request, response *restful.Response) {
	user := data.User{}
	if err := request.ReadEntity(&user); err != nil {
		BadRequest(response, err)
		return
	}
	if err := s.DataClient.InsertUser(request.Request.Context(), user); err != nil {
		InternalServerError(response, err)
		return
	}
	Ok(response, Success{RowAffected: 1})
}

func (s *RestServer) getUser(request *restful.Request, response *restful.Response) {
	userId := request.PathParameter("user-id")
	user, err := s.DataClient.GetUser(request.Request.Context(), userId)
	if err != nil {
		if err == data.ErrUserNotExist {
			PageNotFound(response, err)
		} else {
			InternalServerError(response, err)
		}
		return
	}
	Ok(response, user)
}

func (s *RestServer) getUserReviews(request *restful.Request, response *restful.Response) {
	userId := request.PathParameter("user-id")
	reviews, err := s.DataClient.GetUserReviews(request.Request.Context(), userId)
	if err != nil {
		InternalServerError(response, err)
		return
	}
	Ok(response, reviews)
}

func (s *RestServer) insertFood(request *restful.Request, response *restful.Response) {
	food := data.Food{}
	if err := request.ReadEntity(&food); err != nil {
		BadRequest(response, err)
		return
	}
	if err := s.DataClient.InsertFood(request.Request.Context(), food); err != nil {
		InternalServerError(response, err)
		return
	}
	Ok(response, Success{RowAffected: 1})
}

func (s *RestServer) getFood(request *restful.Request, response *restful.Response) {
	foodId := request.PathParameter("food-id")
	food, err := s.DataClient.GetFood(request.Request.Context(), foodId)
	if err != nil {
		if err == data.ErrFoodNotExist {
			PageNotFound(response, err)
		} else {
			InternalServerError(response, err)
		}
		return
	}
	Ok(response, food)
}

func (s *RestServer) getFoodReviews(request *restful.Request, response *restful.Response) {
	foodId := request.PathParameter("food-id")
	reviews, err := s.DataClient.GetFoodReviews(request.Request.Context(), foodId)
	if err != nil {
		InternalServerError(response, err)
		return
	}
	Ok(response, reviews)
}

func (s *RestServer) getFoods(request *restful.Request, response *restful.Response) {
	foods, err := s.DataClient.GetFoods(request.Request.Context())
	if err != nil {
		InternalServerError(response, err)
		return
	}
	Ok(response, foods)
}

func (s *RestServer) insertReview(request *restful.Request, response *restful.Response) {
	review := data.Review{}
	if err := request.ReadEntity(&review); err != nil {
		BadRequest(response, err)
		return
	}
	// rating must sit on the 1..max scale
	if _, err := dataset.NewRating(review.UserId, review.FoodId, review.Rating, s.Config.Recommend.MaxRating); err != nil {
		BadRequest(response, err)
		return
	}
	if review.Timestamp.IsZero() {
		review.Timestamp = time.Now()
	}
	if err := s.DataClient.InsertReview(request.Request.Context(), review); err != nil {
		InternalServerError(response, err)
		return
	}
	InsertReviewTotal.Inc()
	Ok(response, Success{RowAffected: 1})
}

func (s *RestServer) getReviews(request *restful.Request, response *restful.Response) {
	reviews, err := s.DataClient.GetReviews(request.Request.Context())
	if err != nil {
		InternalServerError(response, err)
		return
	}
	Ok(response, reviews)
}

func (s *RestServer) getHealth(_ *restful.Request, response *restful.Response) {
	if err := s.DataClient.Ping(); err != nil {
		InternalServerError(response, err)
		return
	}
	Ok(response, HealthStatus{Ready: true})
}

func BadRequest(response *restful.Response, err error) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	log.Logger().Error("bad request", zap.Error(err))
	if err = response.WriteError(http.StatusBadRequest, err); err != nil {
		log.Logger().Error("failed to write error", zap.Error(err))
	}
}

func InternalServerError(response *restful.Response, err error) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	log.Logger().Error("internal server error", zap.Error(err))
	if err = response.WriteError(http.StatusInternalServerError, err); err != nil {
		log.Logger().Error("failed to write error", zap.Error(err))
	}
}

func PageNotFound(response *restful.Response, err error) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	if err := response.WriteError(http.StatusNotFound, err); err != nil {
		log.Logger().Error("failed to write error", zap.Error(err))
	}
}

func Ok(response *restful.Response, content interface{}) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	if err := response.WriteAsJson(content); err != nil {
		log.Logger().Error("failed to write json", zap.Error(err))
	}
}
