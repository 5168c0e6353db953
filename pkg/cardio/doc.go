// Package cardio assesses heart disease risk from the 13 clinical features
// of the Cleveland dataset using a pre-fitted classifier.
//
// Quick start:
//
//	c, err := cardio.New(cardio.WithModelDir("models/"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	a, _ := c.Assess(map[string]float64{"age": 63, "sex": 1, ...})
//	fmt.Println(a.Verdict) // High Risk of Heart Disease
//
// A Cardio instance is safe for concurrent use. Create once, reuse across
// requests.
package cardio
