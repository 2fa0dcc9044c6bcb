package validators

import "go.mongodb.org/mongo-driver/bson"

var timeWindowSchema = bson.M{
	"bsonType": "object",
	"required": []string{"start", "end"},
	"properties": bson.M{
		"start": bson.M{
			"bsonType": "string",
			"pattern":  `^([01]\d|2[0-3]):[0-5]\d$`,
		},
		"end": bson.M{
			"bsonType": "string",
			"pattern":  `^([01]\d|2[0-3]):[0-5]\d$`,
		},
	},
}

var AvailabilityValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"tutor_id",
			"weekly",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"tutor_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"weekly": bson.M{
				"bsonType": "object",
				"additionalProperties": bson.M{
					"bsonType": "array",
					"items":    timeWindowSchema,
				},
			},

			"date_overrides": bson.M{
				"bsonType": "object",
				"additionalProperties": bson.M{
					"bsonType": "array",
					"items":    timeWindowSchema,
				},
			},

			"time_zone": bson.M{
				"bsonType": "string",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
