package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// labelDetector is the slice of the Rekognition client we call
type labelDetector interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// genericLabels say "this is food" without saying which
var genericLabels = map[string]bool{
	"food": true, "meal": true, "dish": true, "lunch": true, "dinner": true,
	"breakfast": true, "brunch": true, "supper": true, "plate": true, "bowl": true,
	"produce": true, "cutlery": true, "tableware": true, "table": true,
	"dining table": true, "furniture": true, "platter": true, "cuisine": true,
}

// RekognitionClassifier picks the most specific food label from DetectLabels
type RekognitionClassifier struct {
	client labelDetector
}

// NewRekognitionClassifier loads the default AWS config for region
func NewRekognitionClassifier(ctx context.Context, region string) (*RekognitionClassifier, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &RekognitionClassifier{client: rekognition.NewFromConfig(cfg)}, nil
}

func (r *RekognitionClassifier) ClassifyImage(ctx context.Context, image []byte) (*Classification, error) {
	out, err := r.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: image},
		MaxLabels:     aws.Int32(15),
		MinConfidence: aws.Float32(60),
	})
	if err != nil {
		return nil, fmt.Errorf("rekognition detect labels: %w", err)
	}

	label := pickFoodLabel(out.Labels)
	if label == nil {
		return nil, ErrNoPrediction
	}
	return &Classification{
		FoodLabel:         aws.ToString(label.Name),
		ConfidencePercent: toPercent(float64(aws.ToFloat32(label.Confidence)) / 100),
	}, nil
}

// pickFoodLabel prefers a specific label whose parent is Food, then any
// specific label. Labels arrive sorted by confidence.
func pickFoodLabel(labels []types.Label) *types.Label {
	var firstSpecific *types.Label
	for i := range labels {
		l := &labels[i]
		if genericLabels[strings.ToLower(aws.ToString(l.Name))] {
			continue
		}
		for _, p := range l.Parents {
			if strings.EqualFold(aws.ToString(p.Name), "food") {
				return l
			}
		}
		if firstSpecific == nil {
			firstSpecific = l
		}
	}
	return firstSpecific
}
