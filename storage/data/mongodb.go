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

package data

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDB is the data storage based on MongoDB.
type MongoDB struct {
	client *mongo.Client
	dbName string
}

// Init collections and indices in MongoDB.
func (db *MongoDB) Init() error {
	ctx := context.Background()
	d := db.client.Database(db.dbName)
	// list collections
	var hasFoods, hasUsers, hasReviews bool
	collections, err := d.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return err
	}
	for _, collectionName := range collections {
		switch collectionName {
		case "foods":
			hasFoods = true
		case "users":
			hasUsers = true
		case "reviews":
			hasReviews = true
		}
	}
	// create collections
	if !hasFoods {
		if err = d.CreateCollection(ctx, "foods"); err != nil {
			return err
		}
	}
	if !hasUsers {
		if err = d.CreateCollection(ctx, "users"); err != nil {
			return err
		}
	}
	if !hasReviews {
		if err = d.CreateCollection(ctx, "reviews"); err != nil {
			return err
		}
	}
	// create indices
	_, err = d.Collection("foods").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.M{
			"foodid": 1,
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = d.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.M{
			"userid": 1,
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = d.Collection("reviews").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "userid", Value: 1},
			{Key: "foodid", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (db *MongoDB) Ping() error {
	return db.client.Ping(context.Background(), nil)
}

func (db *MongoDB) Close() error {
	return db.client.Disconnect(context.Background())
}

func (db *MongoDB) InsertFood(ctx context.Context, food Food) error {
	c := db.client.Database(db.dbName).Collection("foods")
	opt := options.Replace()
	opt.SetUpsert(true)
	_, err := c.ReplaceOne(ctx, bson.M{"foodid": bson.M{"$eq": food.FoodId}}, food, opt)
	return err
}

func (db *MongoDB) GetFood(ctx context.Context, foodId string) (food Food, err error) {
	c := db.client.Database(db.dbName).Collection("foods")
	r := c.FindOne(ctx, bson.M{"foodid": foodId})
	if r.Err() == mongo.ErrNoDocuments {
		err = ErrFoodNotExist
		return
	}
	err = r.Decode(&food)
	return
}

func (db *MongoDB) GetFoods(ctx context.Context) ([]Food, error) {
	c := db.client.Database(db.dbName).Collection("foods")
	r, err := c.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"foodid": 1}))
	if err != nil {
		return nil, err
	}
	foods := make([]Food, 0)
	for r.Next(ctx) {
		var food Food
		if err = r.Decode(&food); err != nil {
			return nil, err
		}
		foods = append(foods, food)
	}
	return foods, nil
}

func (db *MongoDB) InsertUser(ctx context.Context, user User) error {
	c := db.client.Database(db.dbName).Collection("users")
	opt := options.Replace()
	opt.SetUpsert(true)
	_, err := c.ReplaceOne(ctx, bson.M{"userid": bson.M{"$eq": user.UserId}}, user, opt)
	return err
}

func (db *MongoDB) GetUser(ctx context.Context, userId string) (user User, err error) {
	c := db.client.Database(db.dbName).Collection("users")
	r := c.FindOne(ctx, bson.M{"userid": userId})
	if r.Err() == mongo.ErrNoDocuments {
		err = ErrUserNotExist
		return
	}
	err = r.Decode(&user)
	return
}

func (db *MongoDB) InsertReview(ctx context.Context, review Review) error {
	c := db.client.Database(db.dbName).Collection("reviews")
	opt := options.Replace()
	opt.SetUpsert(true)
	_, err := c.ReplaceOne(ctx, bson.M{
		"userid": bson.M{"$eq": review.UserId},
		"foodid": bson.M{"$eq": review.FoodId},
	}, review, opt)
	return err
}

func (db *MongoDB) GetReviews(ctx context.Context) ([]Review, error) {
	return db.findReviews(ctx, bson.M{})
}

func (db *MongoDB) GetUserReviews(ctx context.Context, userId string) ([]Review, error) {
	return db.findReviews(ctx, bson.M{"userid": bson.M{"$eq": userId}})
}

func (db *MongoDB) GetFoodReviews(ctx context.Context, foodId string) ([]Review, error) {
	return db.findReviews(ctx, bson.M{"foodid": bson.M{"$eq": foodId}})
}

func (db *MongoDB) findReviews(ctx context.Context, filter bson.M) ([]Review, error) {
	c := db.client.Database(db.dbName).Collection("reviews")
	r, err := c.Find(ctx, filter, options.Find().SetSort(bson.M{"timestamp": 1}))
	if err != nil {
		return nil, err
	}
	reviews := make([]Review, 0)
	for r.Next(ctx) {
		var review Review
		if err = r.Decode(&review); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}
