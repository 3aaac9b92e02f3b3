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

// Package data stores foods, users and reviews.
package data

import (
	"context"
	"strings"
	"time"

	"github.com/juju/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	MongoPrefix    = "mongodb://"
	MongoSrvPrefix = "mongodb+srv://"
	MemoryPrefix   = "memory://"
)

var (
	ErrUserNotExist = errors.NotFoundf("user")
	ErrFoodNotExist = errors.NotFoundf("food")
)

// Food stores meta data about a dish on the menu.
type Food struct {
	FoodId      string  `bson:"foodid"`
	Name        string  `bson:"name"`
	Description string  `bson:"description"`
	Category    string  `bson:"category"`
	Price       float64 `bson:"price"`
	Image       string  `bson:"image"`
}

// User stores meta data about a user.
type User struct {
	UserId string `bson:"userid"`
	Name   string `bson:"name"`
	Email  string `bson:"email"`
}

// Review stores one user's rating of one food. A user keeps at most one
// review per food, re-reviewing overwrites.
type Review struct {
	UserId    string    `bson:"userid"`
	FoodId    string    `bson:"foodid"`
	Rating    float64   `bson:"rating"`
	Comment   string    `bson:"comment"`
	Timestamp time.Time `bson:"timestamp"`
}

type Database interface {
	Init() error
	Ping() error
	Close() error
	InsertFood(ctx context.Context, food Food) error
	GetFood(ctx context.Context, foodId string) (Food, error)
	GetFoods(ctx context.Context) ([]Food, error)
	InsertUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, userId string) (User, error)
	InsertReview(ctx context.Context, review Review) error
	GetReviews(ctx context.Context) ([]Review, error)
	GetUserReviews(ctx context.Context, userId string) ([]Review, error)
	GetFoodReviews(ctx context.Context, foodId string) ([]Review, error)
}

// Open a connection to a database.
func Open(path string) (Database, error) {
	var err error
	if strings.HasPrefix(path, MongoPrefix) || strings.HasPrefix(path, MongoSrvPrefix) {
		// connect to database
		database := new(MongoDB)
		opts := options.Client()
		opts.ApplyURI(path)
		if database.client, err = mongo.Connect(context.Background(), opts); err != nil {
			return nil, errors.Trace(err)
		}
		// parse DSN and extract database name
		if cs, err := connstring.ParseAndValidate(path); err != nil {
			return nil, errors.Trace(err)
		} else {
			database.dbName = cs.Database
		}
		return database, nil
	} else if strings.HasPrefix(path, MemoryPrefix) {
		return NewMemoryDatabase(), nil
	}
	return nil, errors.Errorf("unknown database: %v", path)
}
