package fft

// TransformStrided transforms the n elements data[0], data[stride], ...,
// data[(n-1)*stride] in place.
//
// Returns ErrNilSlice if data is nil.
// Returns ErrInvalidStride if stride < 1 or overflows index computation.
// Returns ErrLengthMismatch if data is too short for the given stride.
func (p *Plan[T]) TransformStrided(data []T, stride int, inverse bool) error {
	if err := p.validateStrided(data, stride); err != nil {
		return err
	}

	p.runStrided(data, stride, inverse)

	return nil
}

// runStrided is TransformStrided without validation.
func (p *Plan[T]) runStrided(data []T, stride int, inverse bool) {
	if stride == 1 {
		p.run(data[:p.n], inverse)
		return
	}

	buffer := p.stridedScratch[:p.n]
	for i := range p.n {
		buffer[i] = data[i*stride]
	}

	p.run(buffer, inverse)

	for i := range p.n {
		data[i*stride] = buffer[i]
	}
}

func (p *Plan[T]) validateStrided(data []T, stride int) error {
	if data == nil {
		return ErrNilSlice
	}

	if stride < 1 {
		return ErrInvalidStride
	}

	maxInt := int(^uint(0) >> 1)
	maxIndex := p.n - 1
	if maxIndex > 0 && maxIndex > (maxInt-1)/stride {
		return ErrInvalidStride
	}

	if len(data) < 1+maxIndex*stride {
		return ErrLengthMismatch
	}

	return nil
}
