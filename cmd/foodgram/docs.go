package main

// @title Foodgram API
// @version 1.0
// @description Recipe sharing service: recipes, tags, ingredients, favorites, subscriptions and the shopping list download

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Auth
// @tag.description Token login and logout

// @tag.name Users
// @tag.description Registration and profiles

// @tag.name Subscriptions
// @tag.description Following authors

// @tag.name Recipes
// @tag.description Recipe CRUD and filtering

// @tag.name Favorites
// @tag.description Favorite recipes

// @tag.name Shopping cart
// @tag.description Shopping cart and aggregated list download

// @tag.name Tags
// @tag.description Recipe tags

// @tag.name Ingredients
// @tag.description Ingredient reference data

// @tag.name Admin
// @tag.description Admin-only endpoints

// @tag.name Health
// @tag.description Health check endpoints
