package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"tutor_id",
			"student_id",
			"subject",
			"class",
			"board",
			"date",
			"start_time",
			"end_time",
			"duration_min",
			"mode",
			"pricing",
			"payment",
			"status",
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

			"student_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"subject": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"start_time": bson.M{
				"bsonType": "string",
				"pattern":  `^([01]\d|2[0-3]):[0-5]\d$`,
			},

			"end_time": bson.M{
				"bsonType": "string",
				"pattern":  `^([01]\d|2[0-3]):[0-5]\d$`,
			},

			"duration_min": bson.M{
				"bsonType": "int",
				"minimum":  30,
				"maximum":  180,
			},

			"mode": bson.M{
				"bsonType": "string",
				"enum":     []string{"online", "offline"},
			},

			"pricing": bson.M{
				"bsonType": "object",
				"required": []string{"base_amount", "tax_amount", "total_amount"},
				"properties": bson.M{
					"base_amount":  bson.M{"bsonType": "double", "minimum": 0},
					"tax_amount":   bson.M{"bsonType": "double", "minimum": 0},
					"total_amount": bson.M{"bsonType": "double", "minimum": 0},
				},
			},

			"payment": bson.M{
				"bsonType": "object",
				"required": []string{"status"},
				"properties": bson.M{
					"status": bson.M{
						"bsonType": "string",
						"enum": []string{
							"pending",
							"captured",
							"refunded",
							"failed",
						},
					},
				},
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"scheduled",
					"confirmed",
					"in_progress",
					"completed",
					"cancelled",
					"no_show",
					"rescheduled",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
