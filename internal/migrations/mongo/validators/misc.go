package validators

import "go.mongodb.org/mongo-driver/bson"

var ProfileValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"user_id", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"user_id":    bson.M{"bsonType": "string", "minLength": 1},
			"name":       bson.M{"bsonType": "string", "maxLength": 100},
			"email":      bson.M{"bsonType": "string"},
			"phone":      bson.M{"bsonType": "string", "maxLength": 20},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}

var SettingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"key", "value"},
		"additionalProperties": true,
		"properties": bson.M{
			"key":        bson.M{"bsonType": "string", "minLength": 1},
			"updated_at": bson.M{"bsonType": "date"},
		},
	},
}

var ContactValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "email", "phone", "subject", "message", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"name":       bson.M{"bsonType": "string", "minLength": 2},
			"email":      bson.M{"bsonType": "string"},
			"phone":      bson.M{"bsonType": "string", "minLength": 10},
			"subject":    bson.M{"bsonType": "string", "minLength": 5},
			"message":    bson.M{"bsonType": "string", "minLength": 10},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}

var BookingLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"owner", "expires_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "string"},
			"owner":      bson.M{"bsonType": "string"},
			"expires_at": bson.M{"bsonType": "date"},
		},
	},
}
